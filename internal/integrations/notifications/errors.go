package notifications

import "errors"

// ErrPublish возвращается при ошибке отправки события
// Ошибка логируется и не влияет на подтверждённую запись.
var ErrPublish = errors.New("notifications publisher: failed to publish event")
