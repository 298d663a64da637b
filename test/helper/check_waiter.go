package helper

import (
	"fmt"
	"time"

	health "github.com/hirenkeraliya/go-health"
)

// CheckWaiter is a health.CheckListener that lets tests block until given checks complete.
type CheckWaiter struct {
	completedChan chan string
	timeout       time.Duration
}

var _ health.CheckListener = (*CheckWaiter)(nil)

func NewCheckWaiter() *CheckWaiter {
	return &CheckWaiter{
		completedChan: make(chan string, 64),
		timeout:       5 * time.Second,
	}
}

func (c *CheckWaiter) OnCheckRegistered(_ string) {}

func (c *CheckWaiter) OnCheckSkipped(_ string, _ error) {}

func (c *CheckWaiter) OnCheckStarted(_ string) {}

func (c *CheckWaiter) OnCheckCompleted(name string, _ health.Report) {
	c.completedChan <- name
}

// AwaitChecksCompletion returns once every named check completed, as many times as it is named.
func (c *CheckWaiter) AwaitChecksCompletion(checkNames ...string) error {
	if len(checkNames) == 0 {
		return nil
	}

	awaitingCompletion := make(map[string]int, len(checkNames))
	for _, c := range checkNames {
		awaitingCompletion[c]++
	}

	timeout := time.After(c.timeout)
	for len(awaitingCompletion) > 0 {
		select {
		case chkName := <-c.completedChan:
			remainingCount, ok := awaitingCompletion[chkName]
			if !ok {
				return fmt.Errorf("unexpected check completed: %s", chkName)
			}
			if remainingCount == 1 {
				delete(awaitingCompletion, chkName)
			} else {
				awaitingCompletion[chkName]--
			}
		case <-timeout:
			return fmt.Errorf("timed out waiting for checks: %v", awaitingCompletion)
		}
	}

	return nil
}
