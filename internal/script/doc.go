// Package script runs batch calculator scripts.
//
// A script is a YAML file listing input lines that are fed, in order, to
// one calculator session. Optional expectations turn a script into a
// regression check.
//
// # Script Format
//
//	name: shopping
//	description: "Running total with tax"
//	inputs:
//	  - "1,200 + 800"
//	  - "*1.2"
//	  - "@total = ans"
//	  - 42                  # non-string inputs are rejected
//	expect:                 # optional, one entry per input
//	  - "2000"
//	  - "2400"
//	  - "Variable 'total' set to 2400"
//	  - "Error: Invalid input type"
//	variables:              # optional, checked after the last input
//	  total: 2400
//
// Unknown fields are rejected, so a typo such as "input:" fails to load
// instead of silently running nothing.
//
// # Usage
//
//	s, err := script.Load("testdata/scripts/shopping.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	transcript, err := script.Run(ctx, sess, calculator, s)
//	if !transcript.Pass {
//	    for _, f := range transcript.Failures {
//	        log.Println(f)
//	    }
//	}
package script
