// SPDX-License-Identifier: LGPL-3.0-or-later

package acmestub

import (
	"context"
	"crypto"
	"fmt"
	"strings"
	"testing"

	acmeapi "github.com/go-acme/lego/v4/acme/api"
	"github.com/go-acme/lego/v4/certcrypto"
	"github.com/go-acme/lego/v4/lego"
	"github.com/go-acme/lego/v4/registration"

	"github.com/jahkeup/acmestub/pkg/rfc6761"
)

// GeneratedEmailDomain is the domain of addresses made by TestNamedEmail.
var GeneratedEmailDomain = rfc6761.Domain("acmestub")

// NewTestingContext creates a context that's canceled at the end of the current
// test scope.
func NewTestingContext(t testing.TB) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

var tokenReplacer = strings.NewReplacer("/", "_")

func TestNamedEmail(t testing.TB) string {
	name := tokenReplacer.Replace(t.Name())
	return fmt.Sprintf("%s@%s", strings.ToLower(name), GeneratedEmailDomain)
}

// ManagedUser creates a lego user with a fresh P-256 account key, matching the
// key type of the canned account.
func ManagedUser(email string) *managedUser {
	pk, err := certcrypto.GeneratePrivateKey(certcrypto.EC256)
	if err != nil {
		panic(err)
	}

	return &managedUser{
		email:      email,
		privateKey: pk,
	}
}

func legoConfig(server ACMEServer, user registration.User) *lego.Config {
	config := lego.NewConfig(user)

	config.CADirURL = server.DirectoryURL()
	config.HTTPClient = server.Client()

	return config
}

func LegoClient(server ACMEServer, user registration.User) *lego.Client {
	client, err := lego.NewClient(legoConfig(server, user))
	if err != nil {
		panic(fmt.Sprintf("failed to get lego client: %v", err))
	}

	return client
}

func LegoAPIClient(server ACMEServer, user registration.User) *acmeapi.Core {
	var accountKID string
	if reg := user.GetRegistration(); reg != nil {
		accountKID = reg.URI
	}

	apiclient, err := acmeapi.New(server.Client(), "acmestub/LegoAPIClient", server.DirectoryURL(), accountKID, user.GetPrivateKey())
	if err != nil {
		panic(fmt.Sprintf("failed to get lego acme (api) client: %v", err))
	}

	return apiclient
}

type managedUser struct {
	email        string
	privateKey   crypto.PrivateKey
	registration *registration.Resource
}

// GetEmail implements registration.User
func (u *managedUser) GetEmail() string {
	return u.email
}

// GetPrivateKey implements registration.User
func (u *managedUser) GetPrivateKey() crypto.PrivateKey {
	return u.privateKey
}

// GetRegistration implements registration.User
func (u *managedUser) GetRegistration() *registration.Resource {
	return u.registration
}

func (u *managedUser) SetRegistration(reg *registration.Resource) {
	u.registration = reg
}

// Register creates the account with the stub. The stub always hands back its
// canned account.
func (u *managedUser) Register(server ACMEServer) error {
	client, err := lego.NewClient(legoConfig(server, u))
	if err != nil {
		return fmt.Errorf("lego client: %w", err)
	}

	reg, err := client.Registration.Register(registration.RegisterOptions{
		TermsOfServiceAgreed: true,
	})
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	u.SetRegistration(reg)

	return nil
}

func (u *managedUser) MustRegister(server ACMEServer) *managedUser {
	if err := u.Register(server); err != nil {
		panic(err)
	}

	return u
}

var _ registration.User = (*managedUser)(nil)
