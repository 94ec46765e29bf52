package settings

import (
	"strings"
	"unicode"
)

// Path keys in callback data join schema field names with this separator; an
// enum leaf carries its literal value as the final segment.
const PathSeparator = "::"

// RootPath identifies the top-level settings menu.
const RootPath = "settings"

// ClosePath is the sentinel callback value that dismisses the menu.
const ClosePath = "ㄨ"

// FieldKind describes how a schema field renders in the menu and how its
// value is converted on update.
type FieldKind int

const (
	KindObject FieldKind = iota
	KindString
	KindNumber
	KindEnum
)

// Field is one node of the declarative settings schema. The schema is a
// hand-written typed value rather than something derived from struct
// reflection, so path keys stay stable by construction.
type Field struct {
	Name     string
	Kind     FieldKind
	Values   []string // enum literals, KindEnum only
	Children []Field  // KindObject only
}

// Schema mirrors the Settings struct one field per entry. Field names must
// match the JSON names of Settings, since saved values are keyed by path.
var Schema = []Field{
	{Name: "telegraph", Kind: KindObject, Children: []Field{
		{Name: "chatHistoryLimit", Kind: KindNumber},
	}},
	{Name: "agent", Kind: KindObject, Children: []Field{
		{Name: "systemPrompt", Kind: KindString},
		{Name: "llm", Kind: KindObject, Children: []Field{
			{Name: "model", Kind: KindEnum, Values: Models},
			{Name: "temperature", Kind: KindNumber},
			{Name: "maxTokens", Kind: KindNumber},
			{Name: "topP", Kind: KindNumber},
			{Name: "frequencyPenalty", Kind: KindNumber},
			{Name: "presencePenalty", Kind: KindNumber},
		}},
	}},
	{Name: "sonata", Kind: KindObject, Children: []Field{
		{Name: "voice", Kind: KindEnum, Values: Voices},
	}},
}

// Menu is one node of the compiled settings menu. Data is the node's unique
// path key, used verbatim as inline-keyboard callback data.
type Menu struct {
	Label    string
	Data     string
	Children []Menu
}

// Compile builds the navigable menu tree from the schema. Called once at
// startup.
func Compile() Menu {
	return Menu{
		Label:    "Settings",
		Data:     RootPath,
		Children: compileFields(Schema, ""),
	}
}

func compileFields(fields []Field, parentKey string) []Menu {
	menus := make([]Menu, 0, len(fields))
	for _, f := range fields {
		fullKey := f.Name
		if parentKey != "" {
			fullKey = parentKey + PathSeparator + f.Name
		}
		m := Menu{Label: camelToSentence(f.Name), Data: fullKey}
		switch f.Kind {
		case KindObject:
			m.Children = compileFields(f.Children, fullKey)
		case KindEnum:
			m.Children = make([]Menu, 0, len(f.Values))
			for _, v := range f.Values {
				m.Children = append(m.Children, Menu{
					Label: v,
					Data:  fullKey + PathSeparator + v,
				})
			}
		}
		menus = append(menus, m)
	}
	return menus
}

// Find returns the menu node with the exact path key, depth first, or nil.
func (m *Menu) Find(data string) *Menu {
	for i := range m.Children {
		child := &m.Children[i]
		if child.Data == data {
			return child
		}
		if found := child.Find(data); found != nil {
			return found
		}
	}
	return nil
}

// ParentPath strips the last path segment; the root's parent is the close
// sentinel, so backing out of the top level dismisses the menu.
func ParentPath(data string) string {
	if data == RootPath {
		return ClosePath
	}
	segments := strings.Split(data, PathSeparator)
	segments = segments[:len(segments)-1]
	if len(segments) == 0 {
		return RootPath
	}
	return strings.Join(segments, PathSeparator)
}

// findField resolves a schema field by path segments, or nil.
func findField(fields []Field, segments []string) *Field {
	if len(segments) == 0 {
		return nil
	}
	for i := range fields {
		f := &fields[i]
		if f.Name != segments[0] {
			continue
		}
		if len(segments) == 1 {
			return f
		}
		return findField(f.Children, segments[1:])
	}
	return nil
}

// camelToSentence turns a camelCase field name into a label: a space before
// each internal capital, first letter capitalized ("chatHistoryLimit" →
// "Chat History Limit").
func camelToSentence(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
