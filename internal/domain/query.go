package domain

type Query struct {
	JobTitle     string
	Location     string
	SearchVolume int // monthly volume; 0 when the keywords file omits it
}
