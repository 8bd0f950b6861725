package monitor

import "errors"

// ErrAccountExists is returned by ConfirmClosed when the sale account still holds data.
var ErrAccountExists = errors.New("sale account still exists")
