package main

import "fmt"

type options struct {
	values map[string]string
	flags  map[string]bool
}

var (
	valueOptions = map[string]bool{"--config": true, "--password": true, "--open": true, "--out": true}
	flagOptions  = map[string]bool{"--html": true}
)

// parseArgs splits args into positional arguments and options. Options may
// appear anywhere; "--" ends option parsing.
func parseArgs(args []string) ([]string, options, error) {
	opts := options{values: map[string]string{}, flags: map[string]bool{}}
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			positional = append(positional, args[i+1:]...)
			return positional, opts, nil
		case valueOptions[arg]:
			if i+1 >= len(args) {
				return nil, opts, fmt.Errorf("option %s needs a value", arg)
			}
			opts.values[arg] = args[i+1]
			i++
		case flagOptions[arg]:
			opts.flags[arg] = true
		case len(arg) > 2 && arg[:2] == "--":
			return nil, opts, fmt.Errorf("unknown option: %s", arg)
		default:
			positional = append(positional, arg)
		}
	}
	return positional, opts, nil
}
