package keypad

// Display is the JSON view of a session: the two labels and the history list.
type Display struct {
	ID       string   `json:"id"`
	Operator string   `json:"operator"`
	Operand  string   `json:"operand"`
	History  []string `json:"history"`
}

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys.
type KeysRequest struct {
	Keys []string `json:"keys"` // pressed in order, e.g. ["1", "2", "+", "3", "="]
}

// FormulaTerm is one (operator, operand) pair of an evaluation.
type FormulaTerm struct {
	Operator string `json:"operator"` // "" starts over at the operand
	Operand  string `json:"operand"`
}

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Terms []FormulaTerm `json:"terms"`
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Terms    []EvaluatedTerm `json:"terms"`
	Recorded int             `json:"recorded"`
	Result   string          `json:"result"`
	Error    string          `json:"error,omitempty"`
}

// EvaluatedTerm records one submitted term. History is empty when the term
// was not recorded.
type EvaluatedTerm struct {
	Operator string `json:"operator"`
	Operand  string `json:"operand"`
	History  string `json:"history"`
}
