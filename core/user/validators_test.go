package user

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/schoolconnect/core"
)

func Test_validatePassword(t *testing.T) {
	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	InitValidators(validate, translator)

	usr := User{Name: "Jane Smith", Email: "teacher@example.com"}

	tests := []struct {
		name    string
		pwd     string
		wantTag string
		wantMsg string
	}{
		{name: "too short", pwd: "abc123", wantTag: pwdMinLenTag, wantMsg: pwdMinLenText},
		{name: "whitespace", pwd: "correct horse", wantTag: pwdNoSpaceTag, wantMsg: pwdNoSpaceText},
		{name: "all numeric", pwd: "12345678", wantTag: pwdNotAllNumTag, wantMsg: pwdNotAllNumText},
		{name: "similar to name", pwd: "JaneSmith", wantTag: pwdAttrSimTag, wantMsg: pwdAttrSimText},
		{name: "similar to email", pwd: "teacher@example", wantTag: pwdAttrSimTag, wantMsg: pwdAttrSimText},
		{name: "valid", pwd: "Tr0ub4dor&3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp := ChangePassword{CurrentPassword: "teacher123", NewPassword: tt.pwd}
			err := cp.Validate(usr, validate)
			if tt.wantTag == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}

			vErr, ok := errors.Cause(err).(*core.ValidationError)
			if !ok || len(vErr.Invalid) != 1 {
				t.Fatalf("Validate() error = %#v; want one field error", err)
			}
			fe := vErr.Invalid[0]
			if fe.Tag() != tt.wantTag || fe.Field() != "newPassword" {
				t.Errorf("field error = %s on %s; want %s on newPassword", fe.Tag(), fe.Field(), tt.wantTag)
			}
			if got := fe.Translate(translator); got != tt.wantMsg {
				t.Errorf("translation = %q; want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestNewUser_roles(t *testing.T) {
	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	InitValidators(validate, translator)

	for role, wantErr := range map[string]bool{"": false, RoleParent: false, RoleTeacher: false, RoleAdmin: true, "janitor": true} {
		nu := NewUser{Name: "Bob Marley", Email: "bob@example.com", Password: "Tr0ub4dor&3", Role: role}
		if err := validate.Struct(nu); (err != nil) != wantErr {
			t.Errorf("role %q: error = %v, wantErr %v", role, err, wantErr)
		}
	}
}
