package services

import (
	"fmt"
	"log"
)

// sagaStep is one locally-committed step of a cross-store operation,
// paired with the action that undoes it. The role store and the record
// store are not covered by a single transaction, so multi-store flows run
// as sagas instead of pretending to be atomic.
type sagaStep struct {
	name       string
	run        func() error
	compensate func() error // nil when the step needs no undo
}

// runSaga executes steps in order. When a step fails, the compensations of
// every previously completed step run in reverse order and the original
// failure is returned. A compensation failure is logged, not returned:
// the window it leaves open is a documented property of these flows.
func runSaga(steps []sagaStep) error {
	done := make([]sagaStep, 0, len(steps))
	for _, step := range steps {
		if err := step.run(); err != nil {
			for i := len(done) - 1; i >= 0; i-- {
				prev := done[i]
				if prev.compensate == nil {
					continue
				}
				if cerr := prev.compensate(); cerr != nil {
					log.Printf("saga: compensation %q failed: %v", prev.name, cerr)
				}
			}
			return fmt.Errorf("step %q: %w", step.name, err)
		}
		done = append(done, step)
	}
	return nil
}
