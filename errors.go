package promhist

import "errors"

const Namespace = "promhist"

var (
	ErrDuplicateName = errors.New(Namespace + ": metric name already registered")
	ErrUnknownMetric = errors.New(Namespace + ": metric name not registered")
	ErrEncode        = errors.New(Namespace + ": failed to encode registry")
	ErrInvalidLevel  = errors.New(Namespace + ": invalid diagnostics level")
)
