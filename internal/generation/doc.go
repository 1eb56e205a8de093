// Package generation defines the boundary between the task services and an
// external text-completion model. The Suggester interface recommends task
// fields and drafts new task descriptions; the Gemini adapter in
// internal/platform/gemini implements it.
package generation
