package domain

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Strict inequalities: intervals that merely abut
// do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// ConflictsWithAppointment tests a candidate interval against an existing
// appointment expanded by the buffer on both sides. Inactive appointments
// never conflict.
func ConflictsWithAppointment(slotStart, slotEnd int, appointment *Appointment, bufferMinutes int) bool {
	if !appointment.IsActive() {
		return false
	}

	occupiedStart := appointment.StartMinute - bufferMinutes
	occupiedEnd := appointment.EndMinute() + bufferMinutes

	return Overlaps(slotStart, slotEnd, occupiedStart, occupiedEnd)
}

// FirstConflict returns the first appointment on the slot's date whose
// buffer-expanded interval overlaps the candidate interval, or nil.
func FirstConflict(slot *TimeSlot, appointments []*Appointment, bufferMinutes int) *Appointment {
	for _, appointment := range appointments {
		if !SameDay(appointment.Date, slot.Date) {
			continue
		}
		if ConflictsWithAppointment(slot.StartMinute, slot.EndMinute(), appointment, bufferMinutes) {
			return appointment
		}
	}
	return nil
}
