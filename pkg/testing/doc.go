// Package testing provides a host testing harness for funlit components.
//
// # Quick Start
//
// Define a component, mount it and make assertions:
//
//	func TestStepper(t *testing.T) {
//	    tester := funlittest.NewHostTesterWithT(t)
//	    tester.Define("fun-stepper", stepper.Init)
//	    _, el, _ := tester.Mount("fun-stepper", map[string]string{"count": "3"})
//
//	    tester.Invoke(funlittest.ByTag("fun-stepper"), "increment")
//
//	    if got := tester.Content(el); got != "4" {
//	        t.Errorf("content = %q", got)
//	    }
//	}
//
// # Snapshot Testing
//
// Capture and compare the rendered document:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/stepper.snapshot.json")
//
// Update snapshots with:
//
//	FUNLIT_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Frame Testing
//
// Components that animate request frames from the loop. Control time for
// deterministic tests:
//
//	tester.PumpFrame(100 * time.Millisecond)
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import funlittest "github.com/go-drift/funlit/pkg/testing"
package testing
