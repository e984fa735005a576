package common

const (
	// IDAttributeName is the name of the identifier attribute every stored tuple carries. When it is part
	// of a schema it is always the first attribute.
	IDAttributeName = "_ID"

	// SpanListAttributeName is the default name of the auxiliary attribute holding match annotations.
	SpanListAttributeName = "spanList"

	// StandardAnalyzer is the only analyzer the engine ships with. Tables record the analyzer name so that
	// matchers tokenize field values the same way the data was meant to be tokenized.
	StandardAnalyzer = "standard"
)
