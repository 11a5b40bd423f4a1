package models

// Counter is a named monotonically increasing sequence.
type Counter struct {
	ID  string `bson:"_id" json:"_id"`
	Seq int64  `bson:"seq" json:"seq"`
}
