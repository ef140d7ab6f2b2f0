package logger

// Field represents a log field
type Field interface {
	Apply(entry *LogEntry)
}

type valueField struct {
	key   string
	value any
}

func (f valueField) Apply(entry *LogEntry) {
	entry.Fields[f.key] = f.value
}

type errorField struct {
	err error
}

func (f errorField) Apply(entry *LogEntry) {
	entry.Error = f.err.Error()
}

type componentField struct {
	component string
}

func (f componentField) Apply(entry *LogEntry) {
	entry.Component = f.component
}

// String creates a string field
func String(key, value string) Field {
	return valueField{key: key, value: value}
}

// Int creates an integer field
func Int(key string, value int) Field {
	return valueField{key: key, value: value}
}

// Float creates a float field
func Float(key string, value float64) Field {
	return valueField{key: key, value: value}
}

// Bool creates a boolean field
func Bool(key string, value bool) Field {
	return valueField{key: key, value: value}
}

// Strings creates a field holding a list of names
func Strings(key string, values []string) Field {
	return valueField{key: key, value: values}
}

// Error creates an error field
func Error(err error) Field {
	return errorField{err: err}
}

// Component creates a component field
func Component(component string) Field {
	return componentField{component: component}
}
