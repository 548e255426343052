package transport

import "reflect"

// chanBuffer bounds how far a sender can run ahead of its receiver before
// Send blocks. The protocol's request/response shape keeps senders and
// receivers in lockstep almost everywhere, so this is generous headroom
// rather than a tuned capacity.
const chanBuffer = 256

type triple struct {
	from, to Rank
	tag      Tag
}

type envelope struct {
	from Rank
	msg  Message
}

var allTags = [...]Tag{TagRegister, TagBroadcast, TagProbe, TagControl, TagSwarm}

// Bus connects every participant to every other by rank, preallocating one
// buffered channel per (source, destination, tag) triple. Allocating all of
// them upfront, rather than lazily, keeps Send and Recv free of locking:
// both only ever index into an already-built map.
type Bus struct {
	n     int
	chans map[triple]chan envelope
}

// NewBus builds a transport connecting n participants (rank 0..n-1).
func NewBus(n int) *Bus {
	b := &Bus{n: n, chans: make(map[triple]chan envelope, n*n*len(allTags))}
	for from := 0; from < n; from++ {
		for to := 0; to < n; to++ {
			if from == to {
				continue
			}
			for _, tag := range allTags {
				b.chans[triple{Rank(from), Rank(to), tag}] = make(chan envelope, chanBuffer)
			}
		}
	}
	return b
}

// Endpoint returns the send/receive handle for one participant.
func (b *Bus) Endpoint(self Rank) *Endpoint {
	return &Endpoint{bus: b, self: self}
}

// Endpoint is the handle a tracker or peer goroutine uses to exchange
// messages over a Bus. It corresponds to one rank's view of MPI_COMM_WORLD.
type Endpoint struct {
	bus  *Bus
	self Rank
}

// Rank returns the identifier this endpoint sends and receives as.
func (e *Endpoint) Rank() Rank { return e.self }

// Send enqueues msg for dest on tag. It never blocks in practice: the
// protocol's channels drain at each step via a matching Recv.
func (e *Endpoint) Send(dest Rank, tag Tag, msg Message) {
	e.bus.chans[triple{e.self, dest, tag}] <- envelope{from: e.self, msg: msg}
}

// Recv blocks until a message for this endpoint arrives on tag from source.
// Passing AnyRank as source performs a wildcard receive, returning the
// sender's identity alongside the payload.
func (e *Endpoint) Recv(source Rank, tag Tag) (Message, Rank) {
	if source != AnyRank {
		env := <-e.bus.chans[triple{source, e.self, tag}]
		return env.msg, env.from
	}

	cases := make([]reflect.SelectCase, 0, e.bus.n-1)
	for from := 0; from < e.bus.n; from++ {
		if Rank(from) == e.self {
			continue
		}
		ch := e.bus.chans[triple{Rank(from), e.self, tag}]
		cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ch)})
	}
	_, val, _ := reflect.Select(cases)
	env := val.Interface().(envelope)
	return env.msg, env.from
}

// SendKeyword is a convenience wrapper over Send for control keywords.
func (e *Endpoint) SendKeyword(dest Rank, tag Tag, word string) {
	e.Send(dest, tag, KeywordMessage(word))
}

// RecvKeyword is a convenience wrapper over Recv for control keywords.
func (e *Endpoint) RecvKeyword(source Rank, tag Tag) (string, Rank) {
	m, from := e.Recv(source, tag)
	return m.Keyword(), from
}

// SendInt is a convenience wrapper over Send for typed integers.
func (e *Endpoint) SendInt(dest Rank, tag Tag, v int) {
	e.Send(dest, tag, IntMessage(v))
}

// RecvInt is a convenience wrapper over Recv for typed integers.
func (e *Endpoint) RecvInt(source Rank, tag Tag) (int, Rank) {
	m, from := e.Recv(source, tag)
	return m.Int(), from
}

// SendHash is a convenience wrapper over Send for segment hashes.
func (e *Endpoint) SendHash(dest Rank, tag Tag, h Hash) {
	e.Send(dest, tag, HashMessage(h))
}

// RecvHash is a convenience wrapper over Recv for segment hashes.
func (e *Endpoint) RecvHash(source Rank, tag Tag) (Hash, Rank) {
	m, from := e.Recv(source, tag)
	return m.Hash(), from
}

// SendFileName is a convenience wrapper over Send for file names.
func (e *Endpoint) SendFileName(dest Rank, tag Tag, name string) error {
	m, err := FileNameMessage(name)
	if err != nil {
		return err
	}
	e.Send(dest, tag, m)
	return nil
}

// RecvFileName is a convenience wrapper over Recv for file names.
func (e *Endpoint) RecvFileName(source Rank, tag Tag) (string, Rank) {
	m, from := e.Recv(source, tag)
	return m.FileName(), from
}
