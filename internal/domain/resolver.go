package domain

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// nameQuery is the query parameter carrying the display name.
const nameQuery = "?name="

// TokenKind classifies a user-supplied room token.
type TokenKind int

const (
	// KindOpaque is a token that matched nothing; it is used literally as a room id.
	KindOpaque TokenKind = iota
	// KindQualified is a token that already contains the service host.
	KindQualified
	// KindUUID is a canonical 36-character UUID.
	KindUUID
	// KindAlias is a known alias.
	KindAlias
)

func (k TokenKind) String() string {
	switch k {
	case KindQualified:
		return "qualified"
	case KindUUID:
		return "uuid"
	case KindAlias:
		return "alias"
	default:
		return "opaque"
	}
}

// Resolution is the outcome of classifying a token.
type Resolution struct {
	Token  string
	Kind   TokenKind
	RoomID string // bare room id the token names
}

// AliasLookup is the read side of the alias registry the resolver needs.
type AliasLookup interface {
	Resolve(alias string) (string, bool)
	DefaultName() string
}

// RoomResolver turns tokens (URL, UUID or alias) into canonical room URLs.
type RoomResolver struct {
	host    string
	aliases AliasLookup
	newID   func() string
}

// NewRoomResolver creates a resolver for rooms served under host.
func NewRoomResolver(host string, aliases AliasLookup) *RoomResolver {
	return &RoomResolver{
		host:    strings.TrimRight(host, "/"),
		aliases: aliases,
		newID:   uuid.NewString,
	}
}

// Host returns the service host without trailing slash.
func (r *RoomResolver) Host() string { return r.host }

// Classify decides what a token is. Precedence: qualified URL, UUID, alias,
// and finally opaque. Opaque tokens are never an error.
func (r *RoomResolver) Classify(token string) Resolution {
	switch {
	case strings.Contains(token, r.host):
		return Resolution{Token: token, Kind: KindQualified, RoomID: r.ExtractRoomID(token)}
	case IsValidUUID(token):
		return Resolution{Token: token, Kind: KindUUID, RoomID: token}
	}
	if id, ok := r.aliases.Resolve(token); ok {
		return Resolution{Token: token, Kind: KindAlias, RoomID: id}
	}
	return Resolution{Token: token, Kind: KindOpaque, RoomID: token}
}

// RoomID returns the bare room id a token names.
func (r *RoomResolver) RoomID(token string) string {
	return r.Classify(token).RoomID
}

// BuildURL returns the canonical URL for token. displayName wins over the
// configured default name; with neither, no name parameter is added.
func (r *RoomResolver) BuildURL(token, displayName string) string {
	res := r.Classify(token)
	name := r.displayName(displayName)

	if res.Kind == KindQualified {
		if name == "" {
			return token
		}
		base, _, _ := strings.Cut(token, nameQuery)
		return withName(base, name)
	}
	return withName(r.roomURL(res.RoomID), name)
}

// CreateRoom mints a new room id and returns its URL.
func (r *RoomResolver) CreateRoom(displayName string) string {
	return withName(r.roomURL(r.newID()), r.displayName(displayName))
}

// ExtractRoomID strips the host and a trailing name parameter from a room
// URL. Strings not containing the host are returned unchanged.
func (r *RoomResolver) ExtractRoomID(s string) string {
	idx := strings.Index(s, r.host)
	if idx < 0 {
		return s
	}
	endpoint := strings.TrimPrefix(s[idx+len(r.host):], "/")
	endpoint, _, _ = strings.Cut(endpoint, nameQuery)
	return endpoint
}

func (r *RoomResolver) roomURL(roomID string) string {
	return r.host + "/" + roomID
}

func (r *RoomResolver) displayName(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return r.aliases.DefaultName()
}

func withName(u, name string) string {
	if name == "" {
		return u
	}
	return u + nameQuery + EscapeName(name)
}

// EscapeName percent-encodes a display name, spaces included (%20, not +).
func EscapeName(name string) string {
	return strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}

// IsValidUUID reports whether s is a UUID in canonical 8-4-4-4-12 form.
// Upper and lower case hex digits are accepted.
func IsValidUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
