package fractal

import "github.com/pkg/errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("invalid state")
)

func IsInvalidArgument(err error) bool { return errors.Cause(err) == ErrInvalidArgument }
func IsInvalidState(err error) bool    { return errors.Cause(err) == ErrInvalidState }
