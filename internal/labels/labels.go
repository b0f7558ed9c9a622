package labels

// Undefined is substituted for any dynamic label whose function fails.
// A broken telemetry label must never abort a flush.
const Undefined = "undefined"

// Func produces a label value at flush time.
type Func func() (string, error)

// Resolve merges the label set for one flush: the app name is the base,
// static labels override it, dynamic labels override both. Dynamic functions
// are evaluated once per call; one that errors or panics yields Undefined.
func Resolve(app string, static map[string]string, dynamic map[string]Func) map[string]string {
	resolved := make(map[string]string, 1+len(static)+len(dynamic))
	resolved["app"] = app

	for k, v := range static {
		resolved[k] = v
	}

	for k, fn := range dynamic {
		resolved[k] = evaluate(fn)
	}

	return resolved
}

func evaluate(fn Func) (value string) {
	defer func() {
		if r := recover(); r != nil {
			value = Undefined
		}
	}()

	value, err := fn()
	if err != nil {
		return Undefined
	}
	return value
}
