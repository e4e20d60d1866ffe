// Defines the Request placed into an assignment policy when a process blocks on a
// saturated non-preemptive resource.

package sim

import "fmt"

// Request snapshots a blocked process. It is decoupled from the live PCB so that
// assignment orderings never depend on later changes to the process.
type Request struct {
	Process  ProcessID // blocked process
	Priority int       // active priority when the process blocked
}

func (r Request) String() string {
	return fmt.Sprintf("Request: (Process: %d, Priority: %d)", r.Process, r.Priority)
}
