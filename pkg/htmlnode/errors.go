package htmlnode

import "errors"

var (
	ErrMissingTag      = errors.New("parent node must have a tag")
	ErrMissingChildren = errors.New("parent node must have children")
	ErrMissingValue    = errors.New("leaf node must have a value")
)
