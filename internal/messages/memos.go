package messages

import "math/rand"

var memos = []string{
	"401K through the vegetable way.",
	"Turn-up your profits.",
	"Lets unearth a fortune, together.",
	"Not just another piece of shovelware.",
}

// randomMemo picks the tagline appended to every report and bulletin.
func randomMemo() string {
	return memos[rand.Intn(len(memos))]
}
