package widgethost

import (
	"html"
	"html/template"
	"strings"
	"sync"
)

type Attribute struct {
	Name  string
	Value string
}

// Element is a custom element as it will be created in the page. Attribute order is preserved.
type Element struct {
	Tag        string
	Attributes []Attribute
}

func (e Element) Attribute(name string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HTML renders the element with its attribute values escaped.
func (e Element) HTML() template.HTML {
	sb := strings.Builder{}
	sb.WriteString("<" + e.Tag)
	for _, a := range e.Attributes {
		sb.WriteString(" " + a.Name + "=\"" + html.EscapeString(a.Value) + "\"")
	}
	sb.WriteString("></" + e.Tag + ">")
	return template.HTML(sb.String())
}

// Container is the node a widget gets mounted into.
type Container struct {
	ID string

	sync.Mutex
	children []Element
	failure  string
}

func NewContainer(id string) *Container {
	return &Container{ID: id}
}

func (c *Container) Append(e Element) {
	c.Lock()
	defer c.Unlock()

	c.children = append(c.children, e)
}

func (c *Container) Children() []Element {
	c.Lock()
	defer c.Unlock()

	return append([]Element{}, c.children...)
}

func (c *Container) fail(msg string) {
	c.Lock()
	defer c.Unlock()

	c.failure = msg
}

// Failure returns the message shown in place of the widget, if any.
func (c *Container) Failure() (string, bool) {
	c.Lock()
	defer c.Unlock()

	return c.failure, c.failure != ""
}
