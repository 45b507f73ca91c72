package model

// GenerationRequest is the prompt sent to the text-generation service.
type GenerationRequest struct {
	Source Path
	Prompt string
}

// GeneratedTestBlock is the raw candidate test code for one source file.
type GeneratedTestBlock struct {
	Source Path
	Code   string
}

// NormalizedTestBlock is a generated block after structural repair.
type NormalizedTestBlock struct {
	Source Path
	Code   string
}
