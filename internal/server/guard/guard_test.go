package guard

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/stretchr/testify/assert"
)

var names = []string{"alice", "bob", "carol", "dave", "erin", "frank", "grace"}

func id(u string) models.Identity { return models.Identity{Username: u} }

func detail(from, to string) *models.MessageDetail {
	return &models.MessageDetail{
		ID:       1,
		FromUser: models.UserRef{Username: from},
		ToUser:   models.UserRef{Username: to},
	}
}

func TestCanViewMessage_OnlyParties(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 1000; i++ {
		from := names[r.IntN(len(names))]
		to := names[r.IntN(len(names))]
		caller := names[r.IntN(len(names))]

		want := caller == from || caller == to
		assert.Equal(t, want, CanViewMessage(id(caller), from, to), "caller=%s from=%s to=%s", caller, from, to)
	}
}

func TestCanViewMessage_EveryThirdPartyDenied(t *testing.T) {
	for _, from := range names {
		for _, to := range names {
			for _, caller := range names {
				got := CanViewMessage(id(caller), from, to)
				if caller == from || caller == to {
					assert.True(t, got)
				} else {
					assert.False(t, got, "third party %s must not see %s→%s", caller, from, to)
				}
			}
		}
	}
}

func TestCanMarkRead_RecipientOnly(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))

	for i := 0; i < 1000; i++ {
		from := names[r.IntN(len(names))]
		to := names[r.IntN(len(names))]
		caller := names[r.IntN(len(names))]

		assert.Equal(t, caller == to, CanMarkRead(id(caller), to), "caller=%s from=%s to=%s", caller, from, to)
	}

	assert.False(t, CanMarkRead(id("alice"), "bob"), "sender may not mark read")
	assert.True(t, CanMarkRead(id("alice"), "alice"), "self-message recipient may mark read")
}

func TestPredicates_ZeroIdentity(t *testing.T) {
	var anon models.Identity

	assert.False(t, RequiresAuthentication(anon))
	assert.False(t, CanViewMessage(anon, "", ""))
	assert.False(t, CanMarkRead(anon, ""))
	assert.False(t, CanAccessProfile(anon, ""))
	assert.True(t, RequiresAuthentication(id("alice")))
}

func TestCanAccessProfile_SelfOnly(t *testing.T) {
	for _, caller := range names {
		for _, target := range names {
			assert.Equal(t, caller == target, CanAccessProfile(id(caller), target))
		}
	}
}

func TestAuthorize_ErrorKinds(t *testing.T) {
	m := detail("alice", "bob")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"view sender", AuthorizeView(id("alice"), m), nil},
		{"view recipient", AuthorizeView(id("bob"), m), nil},
		{"view outsider", AuthorizeView(id("carol"), m), common.ErrorForbidden},
		{"view anonymous", AuthorizeView(models.Identity{}, m), common.ErrorUnauthenticated},
		{"mark recipient", AuthorizeMarkRead(id("bob"), m), nil},
		{"mark sender", AuthorizeMarkRead(id("alice"), m), common.ErrorForbidden},
		{"mark anonymous", AuthorizeMarkRead(models.Identity{}, m), common.ErrorUnauthenticated},
		{"mark self message", AuthorizeMarkRead(id("alice"), detail("alice", "alice")), nil},
		{"profile self", AuthorizeProfile(id("alice"), "alice"), nil},
		{"profile other", AuthorizeProfile(id("alice"), "bob"), common.ErrorForbidden},
		{"profile anonymous", AuthorizeProfile(models.Identity{}, "bob"), common.ErrorUnauthenticated},
		{"authenticate", Authenticate(id("alice")), nil},
		{"authenticate anonymous", Authenticate(models.Identity{}), common.ErrorUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want == nil {
				assert.NoError(t, tt.err)
				return
			}
			assert.True(t, errors.Is(tt.err, tt.want), fmt.Sprintf("want %v, got %v", tt.want, tt.err))
			assert.False(t, errors.Is(tt.err, common.ErrorNotFound), "guard never reports not found")
		})
	}
}
