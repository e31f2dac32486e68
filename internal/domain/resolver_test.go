package domain

import (
	"strings"
	"testing"
)

const testHost = "https://rooms.example.com"

// memStore is an in-memory DocumentStore counting saves.
type memStore struct {
	doc      Document
	saves    int
	imported map[string]Document
}

func (m *memStore) View(fn func(doc *Document)) { fn(&m.doc) }

func (m *memStore) Update(fn func(doc *Document) bool) error {
	if fn(&m.doc) {
		m.saves++
	}
	return nil
}

func (m *memStore) Replace(path string) error {
	m.doc = m.imported[path].Clone()
	m.saves++
	return nil
}

func newTestResolver(t *testing.T, name string, aliases map[string]string) (*RoomResolver, *memStore) {
	t.Helper()
	store := &memStore{doc: Document{Name: name}}
	for k, v := range aliases {
		store.doc.Aliases.Set(k, v)
	}
	return NewRoomResolver(testHost, NewAliasRegistry(store)), store
}

func TestIsValidUUID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "canonical lower case", input: "3f2504e0-4f89-11d3-9a0c-0305e82c3301", want: true},
		{name: "canonical upper case", input: "3F2504E0-4F89-11D3-9A0C-0305E82C3301", want: true},
		{name: "random v4", input: "9b2f0c1e-7a4d-4e1b-8c3f-2d6a5b4c3e21", want: true},
		{name: "too short", input: "3f2504e0-4f89-11d3-9a0c-0305e82c330", want: false},
		{name: "too long", input: "3f2504e0-4f89-11d3-9a0c-0305e82c33011", want: false},
		{name: "misplaced dash", input: "3f2504e04-f89-11d3-9a0c-0305e82c3301", want: false},
		{name: "invalid hex digit", input: "3f2504e0-4f89-11d3-9a0c-0305e82c330g", want: false},
		{name: "no dashes", input: "3f2504e04f8911d39a0c0305e82c3301", want: false},
		{name: "braced form", input: "{3f2504e0-4f89-11d3-9a0c-0305e82c3301}", want: false},
		{name: "urn form", input: "urn:uuid:3f2504e0-4f89-11d3-9a0c-0305e82c3301", want: false},
		{name: "36 dashes", input: strings.Repeat("-", 36), want: false},
		{name: "empty", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidUUID(tt.input); got != tt.want {
				t.Errorf("IsValidUUID(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	resolver, _ := newTestResolver(t, "", map[string]string{"standup": "room-1"})

	tests := []struct {
		name       string
		token      string
		wantKind   TokenKind
		wantRoomID string
	}{
		{name: "qualified url", token: testHost + "/abc?name=bob", wantKind: KindQualified, wantRoomID: "abc"},
		{name: "uuid", token: "3f2504e0-4f89-11d3-9a0c-0305e82c3301", wantKind: KindUUID, wantRoomID: "3f2504e0-4f89-11d3-9a0c-0305e82c3301"},
		{name: "known alias", token: "standup", wantKind: KindAlias, wantRoomID: "room-1"},
		{name: "unknown token", token: "retro", wantKind: KindOpaque, wantRoomID: "retro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := resolver.Classify(tt.token)
			if res.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", res.Kind, tt.wantKind)
			}
			if res.RoomID != tt.wantRoomID {
				t.Errorf("RoomID = %v, want %v", res.RoomID, tt.wantRoomID)
			}
		})
	}
}

func TestBuildURL(t *testing.T) {
	const id = "3f2504e0-4f89-11d3-9a0c-0305e82c3301"

	tests := []struct {
		name        string
		defaultName string
		aliases     map[string]string
		token       string
		displayName string
		want        string
	}{
		{
			name:  "uuid without name",
			token: id,
			want:  testHost + "/" + id,
		},
		{
			name:        "uuid with explicit name",
			token:       id,
			displayName: "Ann Lee",
			want:        testHost + "/" + id + "?name=Ann%20Lee",
		},
		{
			name:        "default name applies",
			defaultName: "bob",
			token:       id,
			want:        testHost + "/" + id + "?name=bob",
		},
		{
			name:        "explicit name beats default",
			defaultName: "bob",
			token:       id,
			displayName: "alice",
			want:        testHost + "/" + id + "?name=alice",
		},
		{
			name:    "alias resolves",
			aliases: map[string]string{"standup": id},
			token:   "standup",
			want:    testHost + "/" + id,
		},
		{
			name:  "unknown alias used literally",
			token: "retro",
			want:  testHost + "/retro",
		},
		{
			name:    "qualified token bypasses alias lookup",
			aliases: map[string]string{testHost + "/abc": "should-not-be-used"},
			token:   testHost + "/abc",
			want:    testHost + "/abc",
		},
		{
			name:        "qualified token gets name appended",
			token:       testHost + "/abc",
			displayName: "bob",
			want:        testHost + "/abc?name=bob",
		},
		{
			name:        "qualified token name is replaced",
			token:       testHost + "/abc?name=old",
			displayName: "new",
			want:        testHost + "/abc?name=new",
		},
		{
			name:        "reserved characters escaped",
			token:       "retro",
			displayName: "Tom & Jerry/2?",
			want:        testHost + "/retro?name=Tom%20%26%20Jerry%2F2%3F",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver, _ := newTestResolver(t, tt.defaultName, tt.aliases)
			if got := resolver.BuildURL(tt.token, tt.displayName); got != tt.want {
				t.Errorf("BuildURL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractRoomIDRoundTrip(t *testing.T) {
	const id = "9b2f0c1e-7a4d-4e1b-8c3f-2d6a5b4c3e21"

	for _, defaultName := range []string{"", "bob"} {
		resolver, _ := newTestResolver(t, defaultName, nil)
		u := resolver.BuildURL(id, "")
		if got := resolver.ExtractRoomID(u); got != id {
			t.Errorf("ExtractRoomID(%q) = %v, want %v", u, got, id)
		}
	}
}

func TestExtractRoomIDLeavesOtherTokens(t *testing.T) {
	resolver, _ := newTestResolver(t, "", nil)
	for _, token := range []string{"standup", "3f2504e0-4f89-11d3-9a0c-0305e82c3301", "https://other.example.com/x"} {
		if got := resolver.ExtractRoomID(token); got != token {
			t.Errorf("ExtractRoomID(%q) = %v, want unchanged", token, got)
		}
	}
}

func TestCreateRoom(t *testing.T) {
	resolver, _ := newTestResolver(t, "bob", nil)
	resolver.newID = func() string { return "fixed-id" }

	if got := resolver.CreateRoom(""); got != testHost+"/fixed-id?name=bob" {
		t.Errorf("CreateRoom() = %v", got)
	}

	resolver.newID = NewRoomResolver(testHost, nil).newID
	u := resolver.CreateRoom("alice")
	if !IsValidUUID(resolver.ExtractRoomID(u)) {
		t.Errorf("CreateRoom() minted a non-UUID room id: %v", u)
	}
	if !strings.HasSuffix(u, "?name=alice") {
		t.Errorf("CreateRoom() = %v, want name=alice", u)
	}
}

func TestNewRoomResolverTrimsHost(t *testing.T) {
	resolver := NewRoomResolver(testHost+"/", NewAliasRegistry(&memStore{}))
	if got := resolver.BuildURL("abc", ""); got != testHost+"/abc" {
		t.Errorf("BuildURL() = %v, want single slash", got)
	}
}
