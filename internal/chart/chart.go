package chart

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// SpecProducer is the capability a resolved value must expose to be rendered
// by a plot block. Dispatch is on this capability, not on a concrete type.
type SpecProducer interface {
	ChartSpec() (*Spec, error)
}

// Module returns the "alt" module predeclared for directive code.
func Module() *starlarkstruct.Module {
	return &starlarkstruct.Module{
		Name: "alt",
		Members: starlark.StringDict{
			"Data":  starlark.NewBuiltin("Data", makeData),
			"Chart": starlark.NewBuiltin("Chart", makeChart),
		},
	}
}

// DataValue is an inline data table built by alt.Data(values=...).
type DataValue struct {
	values []map[string]interface{}
	frozen bool
}

var _ starlark.Value = (*DataValue)(nil)

func makeData(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var values starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "values", &values); err != nil {
		return nil, err
	}

	rows, err := toRows(values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return &DataValue{values: rows}, nil
}

// String renders the data table for repr output.
func (d *DataValue) String() string {
	out, err := json.Marshal(d.values)
	if err != nil {
		return "Data(values=?)"
	}
	return fmt.Sprintf("Data(values=%s)", out)
}

func (d *DataValue) Type() string         { return "alt.Data" }
func (d *DataValue) Freeze()              { d.frozen = true }
func (d *DataValue) Truth() starlark.Bool { return starlark.Bool(len(d.values) > 0) }
func (d *DataValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: alt.Data")
}

// Chart is the builder value returned by alt.Chart(data). Builder methods
// return modified copies, so charts can be shared across namespace bindings.
type Chart struct {
	data     *DataValue
	mark     string
	encoding map[string]string // channel -> shorthand
	width    int
	height   int
	title    string
	frozen   bool
}

var (
	_ starlark.Value    = (*Chart)(nil)
	_ starlark.HasAttrs = (*Chart)(nil)
	_ SpecProducer      = (*Chart)(nil)
)

func makeChart(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var data *DataValue
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "data", &data); err != nil {
		return nil, err
	}
	return &Chart{data: data}, nil
}

// String renders a compact description for repr output.
func (c *Chart) String() string {
	var parts []string
	if c.mark != "" {
		parts = append(parts, "mark="+c.mark)
	}
	if len(c.encoding) > 0 {
		channels := make([]string, 0, len(c.encoding))
		for ch := range c.encoding {
			channels = append(channels, ch)
		}
		sort.Strings(channels)
		parts = append(parts, "encoding=["+strings.Join(channels, ", ")+"]")
	}
	return fmt.Sprintf("Chart(%s)", strings.Join(parts, ", "))
}

func (c *Chart) Type() string         { return "alt.Chart" }
func (c *Chart) Freeze()              { c.frozen = true }
func (c *Chart) Truth() starlark.Bool { return starlark.True }
func (c *Chart) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: alt.Chart")
}

var chartMarks = []string{"bar", "point", "line", "area", "circle", "square", "tick", "rect"}

// Attr exposes the builder methods.
func (c *Chart) Attr(name string) (starlark.Value, error) {
	if mark, ok := strings.CutPrefix(name, "mark_"); ok {
		for _, m := range chartMarks {
			if mark == m {
				return starlark.NewBuiltin(name, markMethod(mark)).BindReceiver(c), nil
			}
		}
	}
	switch name {
	case "encode":
		return starlark.NewBuiltin(name, encodeMethod).BindReceiver(c), nil
	case "properties":
		return starlark.NewBuiltin(name, propertiesMethod).BindReceiver(c), nil
	}
	return nil, nil
}

// AttrNames lists the builder methods.
func (c *Chart) AttrNames() []string {
	names := []string{"encode", "properties"}
	for _, m := range chartMarks {
		names = append(names, "mark_"+m)
	}
	sort.Strings(names)
	return names
}

func (c *Chart) clone() *Chart {
	dup := *c
	dup.frozen = false
	dup.encoding = make(map[string]string, len(c.encoding))
	for k, v := range c.encoding {
		dup.encoding[k] = v
	}
	return &dup
}

func markMethod(mark string) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
			return nil, err
		}
		dup := b.Receiver().(*Chart).clone()
		dup.mark = mark
		return dup, nil
	}
}

func encodeMethod(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(args) > 0 {
		return nil, fmt.Errorf("%s: unexpected positional arguments", b.Name())
	}
	dup := b.Receiver().(*Chart).clone()
	for _, kv := range kwargs {
		channel := string(kv[0].(starlark.String))
		shorthand, ok := starlark.AsString(kv[1])
		if !ok {
			return nil, fmt.Errorf("%s: channel %s wants a string shorthand, got %s", b.Name(), channel, kv[1].Type())
		}
		dup.encoding[channel] = shorthand
	}
	return dup, nil
}

func propertiesMethod(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var width, height int
	var title string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"width?", &width, "height?", &height, "title?", &title); err != nil {
		return nil, err
	}
	dup := b.Receiver().(*Chart).clone()
	if width > 0 {
		dup.width = width
	}
	if height > 0 {
		dup.height = height
	}
	if title != "" {
		dup.title = title
	}
	return dup, nil
}

// ChartSpec converts the chart to its declarative specification, validating
// it against the spec grammar.
func (c *Chart) ChartSpec() (*Spec, error) {
	spec := &Spec{
		Config: DefaultConfig(),
		Width:  c.width,
		Height: c.height,
		Title:  c.title,
		Schema: SchemaURL,
	}

	if c.data != nil {
		spec.Data = &Data{Values: c.data.values}
	}
	if c.mark != "" {
		spec.Mark = &Mark{Type: c.mark}
	}
	if len(c.encoding) > 0 {
		spec.Encoding = make(map[string]*Channel, len(c.encoding))
		for channel, shorthand := range c.encoding {
			def, err := parseShorthand(shorthand)
			if err != nil {
				return nil, err
			}
			spec.Encoding[channel] = def
		}
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// toRows converts a starlark sequence of dicts into inline data rows.
func toRows(value starlark.Value) ([]map[string]interface{}, error) {
	iter := starlark.Iterate(value)
	if iter == nil {
		return nil, fmt.Errorf("values must be iterable, got %s", value.Type())
	}
	defer iter.Done()

	var rows []map[string]interface{}
	var elem starlark.Value
	for iter.Next(&elem) {
		dict, ok := elem.(*starlark.Dict)
		if !ok {
			return nil, fmt.Errorf("values entries must be dicts, got %s", elem.Type())
		}
		row := make(map[string]interface{}, dict.Len())
		for _, item := range dict.Items() {
			key, ok := starlark.AsString(item[0])
			if !ok {
				return nil, fmt.Errorf("values keys must be strings, got %s", item[0].Type())
			}
			converted, err := toGo(item[1])
			if err != nil {
				return nil, err
			}
			row[key] = converted
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// toGo converts a starlark value into a JSON-serializable Go value.
func toGo(value starlark.Value) (interface{}, error) {
	switch v := value.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.Bool:
		return bool(v), nil
	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return i, nil
		}
		return nil, fmt.Errorf("integer %s out of range", v.String())
	case starlark.Float:
		return float64(v), nil
	case starlark.String:
		return string(v), nil
	default:
		return nil, fmt.Errorf("cannot serialize %s value in data", value.Type())
	}
}
