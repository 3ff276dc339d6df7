package layout

import "strings"

// ClosableMarker is the class-name fragment toolkits put on closable titles,
// e.g. "lm-mod-closable" or "p-mod-closable".
const ClosableMarker = "mod-closable"

// Extract converts a live widget handle into a [WidgetDescriptor].
//
// Every field has a fallback, so Extract is total: the id comes from
// [Identifier], then from the [NodeHolder] display node, then is empty; the
// kind comes from [Kinded] or is [UnknownKind]; label and icon are copied
// from [Titled]; closable is true only when the title's class name contains
// [ClosableMarker]. Empty strings count as absent.
func Extract(w any) WidgetDescriptor {
	d := WidgetDescriptor{Kind: UnknownKind}
	switch v := w.(type) {
	case nil:
		return d
	case WidgetDescriptor:
		if v.Kind == "" {
			v.Kind = UnknownKind
		}
		return v
	}

	if v, ok := w.(Identifier); ok {
		d.ID = v.WidgetID()
	}
	if d.ID == "" {
		if v, ok := w.(NodeHolder); ok {
			if n := v.DisplayNode(); n != nil {
				d.ID = n.ID
			}
		}
	}

	if v, ok := w.(Kinded); ok {
		if k := v.WidgetKind(); k != "" {
			d.Kind = k
		}
	}

	if v, ok := w.(Titled); ok {
		if t := v.WidgetTitle(); t != nil {
			d.Label = t.Label
			d.Icon = t.Icon
			d.Closable = strings.Contains(t.ClassName, ClosableMarker)
		}
	}

	return d
}
