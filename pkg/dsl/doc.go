// Package dsl provides a fluent builder for assembling questionnaire
// graphs in code. It is the fastest way to get a playable graph in
// tests and examples:
//
//	b := dsl.New("mood-check")
//	b.Add("ask").Question("Feeling good?").Yes("done").No("breathe").Start()
//	b.Add("breathe").Statement("Take a breath.").Next("ask")
//	b.Add("done").Terminal("Great!")
//	store, q, err := b.Build(ctx)
package dsl
