// Package bids models the destination naming templates heuristics classify
// sequences into. A Key is a relative path template such as
//
//	sub-{subject}/{session}/func/sub-{subject}_{session}_task-rest_bold
//
// with {subject}, {session}, and {item} placeholders expanded per matched
// sequence when the organization is applied.
package bids
