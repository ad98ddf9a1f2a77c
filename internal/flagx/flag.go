// Package flagx lets several configuration layers share os.Args without
// tripping over each other's flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the flags listed in allowed, together with their
// values. Both "-f value" and "-f=value" forms are understood; a token that
// starts with "-" is never taken as a value.
func FilterArgs(args []string, allowed []string) []string {
	known := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		known[name] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := known[name]; ok {
				out = append(out, arg)
			}
			continue
		}

		if _, ok := known[arg]; !ok {
			continue
		}
		out = append(out, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}

	return out
}

// lookupString parses a single string flag registered under every name in
// names. When the flag is repeated the last occurrence wins.
func lookupString(setName string, names ...string) string {
	allowed := make([]string, 0, len(names))
	for _, n := range names {
		allowed = append(allowed, "-"+n)
	}

	var value string
	fs := flag.NewFlagSet(setName, flag.ContinueOnError)
	for _, n := range names {
		fs.StringVar(&value, n, "", "path to "+setName+" file")
	}
	_ = fs.Parse(FilterArgs(os.Args[1:], allowed))

	return value
}

// JsonConfigFlags returns the JSON config path given with -c or -config, or
// an empty string.
func JsonConfigFlags() string {
	return lookupString("json", "c", "config")
}

// EnvFileFlags returns the dotenv file path given with -env, or an empty
// string.
func EnvFileFlags() string {
	return lookupString("env", "env")
}

// Positional returns the arguments that are neither flags nor flag values.
// Flags listed in withValue consume the following token.
func Positional(args []string, withValue []string) []string {
	takes := make(map[string]struct{}, len(withValue))
	for _, name := range withValue {
		takes[name] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			out = append(out, arg)
			continue
		}
		if strings.Contains(arg, "=") {
			continue
		}
		if _, ok := takes[arg]; ok && i+1 < len(args) {
			i++
		}
	}
	return out
}
