package model

// BILOU is the five-state entity-tag encoding a sequence decoder assigns
// to a token, plus the Unknown sentinel used before any stage has run.
type BILOU int8

const (
	BILOUUnknown BILOU = -1
	B            BILOU = 0
	I            BILOU = 1
	L            BILOU = 2
	O            BILOU = 3
	U            BILOU = 4
)

// NumBILOU is the number of real (non-Unknown) BILOU states, the size of
// the per-token local-probability slots in Probabilities.
const NumBILOU = 5
