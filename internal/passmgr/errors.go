package passmgr

import "errors"

// ErrUnknownPass is returned by Registry.Run when name has no registered
// Pass, matching the sentinel-error-plus-wrap style used throughout this
// repository for user-facing CLI failures (spec sec 7).
var ErrUnknownPass = errors.New("passmgr: unknown pass")
