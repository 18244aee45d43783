package memory

import (
	"github.com/viant/procsim/runtime/process"
	"github.com/viant/procsim/service/dao"
	"github.com/viant/procsim/service/dao/criteria"
	"github.com/viant/procsim/service/dao/store"
)

// Service keeps run reports in memory.
type Service struct {
	*store.MemoryStore[string, process.RunReport]
}

var _ dao.Service[string, process.RunReport] = (*Service)(nil)

func New() *Service {
	return &Service{
		MemoryStore: store.NewMemoryStore[string, process.RunReport](
			func(r *process.RunReport) string { return r.ID },
			func(r *process.RunReport, parameters []*dao.Parameter) bool {
				return criteria.FilterByState(r.State, parameters)
			},
		),
	}
}
