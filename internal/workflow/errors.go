package workflow

import "errors"

var (
	ErrAcquisitionFailed = errors.New("text acquisition failed")
	ErrUnknownStrategy   = errors.New("unknown extraction strategy")
)
