// Package model provides change-tracked, schema-validated records and the
// collections that hold them.
//
// An Entity keeps its data in an insertion-ordered store and compares every
// write against a baseline captured by Reset, so callers can tell what
// changed since the entity was loaded or last saved:
//
//	e := model.MustNew(map[string]any{"id": 1, "foo": "foo"})
//	_ = e.Assign("foo", "bar")
//	e.Dirty()   // true
//	e.Changed() // {"foo":"bar"}
//	e.Revert()  // back to {"id":1,"foo":"foo"}
//
// Declared kinds embed Entity in a struct. Exported fields, methods and
// accessors of the struct are members that take priority over the store
// when a name is resolved with Member, Assign, HasMember or Delete:
//
//	type Article struct {
//		model.Entity
//	}
//
//	func (a *Article) Slug() string { ... }
//
//	var Articles = model.Define[*Article]("Article",
//		model.WithSchema(model.NewSchema(map[string]model.Rule{
//			"title": model.TypeRule(model.TypeString),
//			"email": model.TagRule("email"),
//		})),
//	)
//
// Names starting with "$" address entity state ($type, $dirty, ...) and
// metadata annotations; names starting with "_" hold internal values that
// never reach the store and are invisible to HasMember.
//
// A Collection binds items to a kind and broadcasts the kind's members over
// its items: Invoke calls a method on each item (aggregating Awaitable
// results into a Promise) and Pluck reads a member of each item.
package model
