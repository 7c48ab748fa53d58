package examples

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/patric-chuzhbe/suiteclient/internal/apiclient"
	"github.com/patric-chuzhbe/suiteclient/internal/auth"
	"github.com/patric-chuzhbe/suiteclient/internal/db/memorystorage"
	"github.com/patric-chuzhbe/suiteclient/internal/devserver"
	"github.com/patric-chuzhbe/suiteclient/internal/format"
	"github.com/patric-chuzhbe/suiteclient/internal/models"
	"github.com/patric-chuzhbe/suiteclient/internal/session"
	"github.com/patric-chuzhbe/suiteclient/internal/ui"
	"github.com/patric-chuzhbe/suiteclient/internal/user"
	"github.com/patric-chuzhbe/suiteclient/internal/validation"
)

type pageNavigator struct {
	path string
}

func (n *pageNavigator) CurrentPath() string {
	return n.path
}

func (n *pageNavigator) Navigate(path string) {
	fmt.Println("navigate:", path)
	n.path = path
}

func setupClient() (*apiclient.Client, *session.Session, func()) {
	server := httptest.NewServer(devserver.New(
		user.NewRegistry(),
		auth.New([]byte("example-signing-key"), time.Hour),
		devserver.WithBcryptCost(bcrypt.MinCost),
	))

	store, err := memorystorage.New()
	if err != nil {
		panic(err)
	}
	sess := session.New(store, &pageNavigator{path: "/dashboard"})

	return apiclient.New(server.URL, sess), sess, server.Close
}

func Example_loginFlow() {
	client, sess, closeServer := setupClient()
	defer closeServer()
	ctx := context.Background()

	if _, err := client.Register(ctx, "ann@example.com", "secret"); err != nil {
		panic(err)
	}
	login, err := client.Login(ctx, "ann@example.com", "secret")
	if err != nil {
		panic(err)
	}
	fmt.Println(login.Message)

	me, err := client.Me(ctx)
	if err != nil {
		panic(err)
	}
	fmt.Println("me:", me.Email)

	if err := sess.Logout(ctx); err != nil {
		panic(err)
	}
	_, found, _ := sess.Token(ctx)
	fmt.Println("token stored:", found)

	// Output:
	// Login successful
	// me: ann@example.com
	// navigate: /login
	// token stored: false
}

func Example_invalidCredentials() {
	client, _, closeServer := setupClient()
	defer closeServer()

	_, err := client.Login(context.Background(), "nobody@example.com", "secret")
	fmt.Println(errors.Is(err, models.ErrInvalidCredentials))

	// Output:
	// true
}

func Example_formatting() {
	fmt.Println(format.FormatCurrency(1234.5))
	fmt.Println(format.FormatCurrency(-0.5))

	date, err := format.FormatDateIn("2024-03-05T14:07:09Z", time.UTC)
	if err != nil {
		panic(err)
	}
	fmt.Println(date)

	// Output:
	// $1,234.50
	// -$0.50
	// 3/5/2024 2:07:09 PM
}

func Example_validation() {
	fmt.Println(validation.ValidateEmail("ann@example.com"))
	fmt.Println(validation.ValidateEmail("ann@example"))
	fmt.Println(validation.ValidateForm(map[string]any{"email": "ann@example.com", "password": " "}))
	fmt.Println(validation.MissingFields(map[string]any{"name": "", "budget": 0, "email": nil}))

	// Output:
	// true
	// false
	// false
	// [budget email name]
}

func Example_messages() {
	doc := ui.NewConsoleDocument(os.Stdout, map[string]string{"loading": "Saving campaign"})

	ui.ShowLoading(doc, "loading")
	ui.HideLoading(doc, "loading")
	ui.ShowMessage(doc, "message", "Campaign saved", "success")
	ui.ShowMessage(doc, "message", "Budget is required", "")

	// Output:
	// Saving campaign...
	// [message success] Campaign saved
	// [message error] Budget is required
}
