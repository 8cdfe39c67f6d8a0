package models

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegister() RegisterInput {
	return RegisterInput{Username: "alice", Password: "secret1", FirstName: "Alice", LastName: "Liddell", Phone: "555-0100"}
}

func TestRegisterInput_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *RegisterInput)
		field  string
	}{
		{name: "valid", mutate: func(in *RegisterInput) {}},
		{name: "empty username", mutate: func(in *RegisterInput) { in.Username = "" }, field: "username"},
		{name: "username with space", mutate: func(in *RegisterInput) { in.Username = "al ice" }, field: "username"},
		{name: "username too long", mutate: func(in *RegisterInput) { in.Username = strings.Repeat("a", 65) }, field: "username"},
		{name: "empty password", mutate: func(in *RegisterInput) { in.Password = "" }, field: "password"},
		{name: "password over 72 bytes", mutate: func(in *RegisterInput) { in.Password = strings.Repeat("p", 73) }, field: "password"},
		{name: "missing first name", mutate: func(in *RegisterInput) { in.FirstName = "" }, field: "first_name"},
		{name: "missing last name", mutate: func(in *RegisterInput) { in.LastName = "" }, field: "last_name"},
		{name: "missing phone", mutate: func(in *RegisterInput) { in.Phone = "" }, field: "phone"},
		{name: "phone too long", mutate: func(in *RegisterInput) { in.Phone = strings.Repeat("1", 33) }, field: "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegister()
			tt.mutate(&in)
			err := in.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, common.ErrorValidation)
			var ve *common.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestLoginInput_Validate(t *testing.T) {
	assert.NoError(t, (&LoginInput{Username: "alice", Password: "x"}).Validate())
	assert.ErrorIs(t, (&LoginInput{Password: "x"}).Validate(), common.ErrorValidation)
	assert.ErrorIs(t, (&LoginInput{Username: "alice"}).Validate(), common.ErrorValidation)
}

func TestSendMessageInput_Validate(t *testing.T) {
	assert.NoError(t, (&SendMessageInput{ToUsername: "bob", Body: "hi"}).Validate())
	assert.ErrorIs(t, (&SendMessageInput{Body: "hi"}).Validate(), common.ErrorValidation)
	assert.ErrorIs(t, (&SendMessageInput{ToUsername: "bob"}).Validate(), common.ErrorValidation)
	assert.ErrorIs(t, (&SendMessageInput{ToUsername: "bob", Body: strings.Repeat("é", 10001)}).Validate(), common.ErrorValidation)
	assert.NoError(t, (&SendMessageInput{ToUsername: "bob", Body: strings.Repeat("é", 10000)}).Validate())
	assert.ErrorIs(t, (&SendMessageInput{ToUsername: "bob", Body: "\xff"}).Validate(), common.ErrorValidation)
}

func TestIdentity_Authenticated(t *testing.T) {
	assert.False(t, Identity{}.Authenticated())
	assert.True(t, Identity{Username: "alice"}.Authenticated())
}

func TestMessageDetail_Parties(t *testing.T) {
	m := &MessageDetail{FromUser: UserRef{Username: "alice"}, ToUser: UserRef{Username: "bob"}}
	from, to := m.Parties()
	assert.Equal(t, "alice", from)
	assert.Equal(t, "bob", to)
}

func TestUser_Ref(t *testing.T) {
	u := &User{Username: "alice", FirstName: "Alice", LastName: "L", Phone: "1"}
	assert.Equal(t, UserRef{Username: "alice", FirstName: "Alice", LastName: "L", Phone: "1"}, u.Ref())
}
