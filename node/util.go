package node

import "reflect"

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func isError(t reflect.Type) bool {
	if t == nil {
		return false
	}

	return t.Implements(errorType)
}
