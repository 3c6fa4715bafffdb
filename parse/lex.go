package parse

import "github.com/google/shlex"

// Split tokenizes a shell-style command string into an argument slice.
func Split(s string) ([]string, error) {
	args, err := shlex.Split(s)
	if err != nil {
		return nil, err
	}

	return args, nil
}
