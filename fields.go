package formflow

import (
	"reflect"
	"strings"

	"github.com/tbxark/formflow/recognize"
	"github.com/tbxark/formflow/types"
)

// Condition gates whether a step should currently be visited.
type Condition[T any] func(state T) bool

// Field describes one collectable value: its JSON pointer name, how to ask
// for it, how to recognize an answer and when it applies.
type Field[T any] struct {
	name        string
	description string
	optional    bool
	condition   Condition[T]
	recognizer  recognize.Recognizer
	prompt      string
}

// Name is the field's JSON pointer, e.g. "/toppings".
func (f *Field[T]) Name() string {
	return f.name
}

// Description is the human-readable field name used in prompts and status.
func (f *Field[T]) Description() string {
	return f.description
}

func (f *Field[T]) Optional() bool {
	return f.optional
}

func (f *Field[T]) Recognizer() recognize.Recognizer {
	return f.recognizer
}

// Active reports whether the field currently applies.
func (f *Field[T]) Active(state T) bool {
	if f.condition == nil {
		return true
	}
	return f.condition(state)
}

// IsUnknown reports whether the field's value is still unfilled.
func (f *Field[T]) IsUnknown(state T) bool {
	doc, err := valueDocument(state)
	if err != nil {
		return true
	}
	v, ok := pointerValue(doc, f.name)
	return isUnknownValue(v, ok)
}

// Info is the descriptor shape shared with external collaborators.
func (f *Field[T]) Info() types.FieldInfo {
	return types.FieldInfo{Name: f.name, Description: f.description, Optional: f.optional}
}

// Fields is the form's field registry, ordered by declaration.
type Fields[T any] struct {
	list  []*Field[T]
	index map[string]*Field[T]
}

func newFields[T any]() *Fields[T] {
	return &Fields[T]{index: make(map[string]*Field[T])}
}

func (fs *Fields[T]) add(f *Field[T]) bool {
	if _, exists := fs.index[f.name]; exists {
		return false
	}
	fs.list = append(fs.list, f)
	fs.index[f.name] = f
	return true
}

// Field looks a field up by its pointer name; nil when absent.
func (fs *Fields[T]) Field(name string) *Field[T] {
	return fs.index[name]
}

// List returns the fields in declaration order.
func (fs *Fields[T]) List() []*Field[T] {
	return fs.list
}

// describePointer turns "/delivery_time" into "delivery time".
func describePointer(pointer string) string {
	segments := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	last := segments[len(segments)-1]
	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")
	return strings.TrimSpace(last)
}

// fieldPointers discovers the scalar JSON pointers of T in declaration
// order, recursing into nested structs. Slices and maps are skipped; fields
// over collection values need an explicit recognizer and are added by hand.
func fieldPointers[T any]() []string {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil
	}
	var paths []string
	collectScalarPointers(typ, "", &paths)
	return paths
}

func collectScalarPointers(typ reflect.Type, prefix string, paths *[]string) {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name := jsonFieldName(field)
		if name == "" || name == "-" {
			continue
		}
		path := prefix + "/" + escapePointerToken(name)
		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		switch ft.Kind() {
		case reflect.Struct:
			collectScalarPointers(ft, path, paths)
		case reflect.String, reflect.Bool,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			*paths = append(*paths, path)
		}
	}
}

// pointerKind resolves the reflect kind behind a pointer path, used to pick
// a default recognizer.
func pointerKind[T any](pointer string) (reflect.Kind, bool) {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return reflect.Invalid, false
	}
	tokens := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	for _, token := range tokens {
		if typ.Kind() == reflect.Ptr {
			typ = typ.Elem()
		}
		if typ.Kind() != reflect.Struct {
			return reflect.Invalid, false
		}
		found := false
		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			if jsonFieldName(field) == unescapePointerToken(token) {
				typ = field.Type
				found = true
				break
			}
		}
		if !found {
			return reflect.Invalid, false
		}
	}
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	return typ.Kind(), true
}

func jsonFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}

func escapePointerToken(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}
