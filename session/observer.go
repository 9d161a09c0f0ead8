package session

// Observer receives counter updates as a session runs. Methods are called
// from both the ingest and the playback goroutine.
type Observer interface {
	LineRead()
	EnvelopeParsed()
	FragmentDecoded()
	FragmentPlayed()
	// Failure is called once per discarded unit with its failure kind.
	Failure(kind string)
	TransportDepth(n int)
}

type nopObserver struct{}

func (nopObserver) LineRead()          {}
func (nopObserver) EnvelopeParsed()    {}
func (nopObserver) FragmentDecoded()   {}
func (nopObserver) FragmentPlayed()    {}
func (nopObserver) Failure(string)     {}
func (nopObserver) TransportDepth(int) {}
