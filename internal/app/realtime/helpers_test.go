package realtime

import (
	"sync"

	"linkup/internal/app/records"
	"linkup/internal/app/user"
)

// fakeSession records every frame pushed to it. panics simulates a dead
// transport misbehaving on push.
type fakeSession struct {
	id       string
	identity string
	panics   bool

	mu     sync.Mutex
	frames []Frame
}

func newFakeSession(id, identity string) *fakeSession {
	return &fakeSession{id: id, identity: identity}
}

func (f *fakeSession) ID() string       { return f.id }
func (f *fakeSession) Identity() string { return f.identity }
func (f *fakeSession) Close()           {}

func (f *fakeSession) Push(frame Frame) {
	if f.panics {
		panic("dead transport")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, frame)
}

func (f *fakeSession) pushed() []Frame {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Frame, len(f.frames))
	copy(out, f.frames)
	return out
}

func (f *fakeSession) eventNames() []string {
	frames := f.pushed()
	names := make([]string, 0, len(frames))
	for _, fr := range frames {
		names = append(names, fr.Event)
	}
	return names
}

func chatRecord(chatID string, userIDs ...string) records.Chat {
	c := records.Chat{ID: chatID, IsGroup: len(userIDs) > 2}
	for _, id := range userIDs {
		c.Users = append(c.Users, user.Summary{ID: id, Name: "User " + id})
	}
	return c
}

func messageRecord(msgID, chatID, senderID string, recipientIDs ...string) records.Message {
	participants := append([]string{senderID}, recipientIDs...)
	return records.Message{
		ID:      msgID,
		Chat:    chatRecord(chatID, participants...),
		Sender:  user.Summary{ID: senderID, Name: "User " + senderID},
		Content: "hello",
		ReadBy:  []string{senderID},
	}
}
