package demo

import (
	"context"
	"strings"

	contract "invitedesk/contracts/invites"
	dErrors "invitedesk/pkg/domain-errors"
)

// ResolveDID plays the DID directory. Registered DIDs without a handle come
// back with an empty alsoKnownAs list.
func (b *Backend) ResolveDID(_ context.Context, did string) (*contract.DIDDocument, error) {
	if !strings.HasPrefix(did, "did:") {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Invalid DID")
	}
	b.mu.RLock()
	handle, ok := b.handles[did]
	b.mu.RUnlock()
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "DID not registered")
	}
	doc := &contract.DIDDocument{ID: did, AlsoKnownAs: []string{}}
	if handle != "" {
		doc.AlsoKnownAs = append(doc.AlsoKnownAs, "at://"+handle)
	}
	return doc, nil
}

// RegisterHandle adds or replaces a directory entry. An empty handle
// registers the DID without one.
func (b *Backend) RegisterHandle(did, handle string) {
	b.mu.Lock()
	b.handles[did] = handle
	b.mu.Unlock()
}
