package criteria

import (
	"github.com/viant/procsim/service/dao"
)

// StateParameter names the parameter matched by FilterByState.
const StateParameter = "State"

// FilterByState returns true when state matches the State parameter, or when
// no State parameter is supplied.
func FilterByState(state string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil || parameter.Name != StateParameter {
			continue
		}
		switch actual := parameter.Value.(type) {
		case string:
			return state == actual
		case []string:
			for _, s := range actual {
				if state == s {
					return true
				}
			}
			return false
		}
	}
	return true
}
