// Package macro renders PHP-style templates against host data.
//
// A [Renderer] locates a template from a [Source], scans it with package
// lang, marshals the model with package value and evaluates the program
// with an engine:
//
//	r := macro.New(macro.WithRoot("site"))
//	out, err := r.Execute(ctx, macro.Source{Path: "~/views/page.php"}, model)
//
// Inline code is written once to a content-addressed file in the temporary
// directory and rendered from there, so inline and file templates share the
// same path through the scanner cache.
package macro
