package model

import (
	"reflect"
	"time"

	"github.com/araddon/dateparse"
)

var timeType = reflect.TypeOf(time.Time{})

// stringToTimeHook decodes strings into time.Time, accepting any of the
// common date/time layouts rather than one fixed format.
func stringToTimeHook(f reflect.Type, t reflect.Type, data any) (any, error) {
	if f.Kind() != reflect.String || t != timeType {
		return data, nil
	}

	return dateparse.ParseAny(data.(string))
}
