package graph

//*******************************************
// edge ref
//*******************************************

// Reference to a trip leg as seen from one of its nodes.
type EdgeRef struct {
	EdgeID  int32
	OtherID int32
}
