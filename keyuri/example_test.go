package keyuri_test

import (
	"fmt"
	"log"

	"github.com/bradleycha/cliauth-sub000/keyuri"
)

func ExampleParse() {
	acct, err := keyuri.Parse("otpauth://totp/ACME%20Co:alice@acme.com?secret=JBSWY3DPEHPK3PXP&digits=6")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(acct.Type)
	fmt.Println(acct.Issuer())
	fmt.Println(acct.Name())
	fmt.Println(acct.Digits)
	// Output:
	// totp
	// ACME Co
	// alice@acme.com
	// 6
}
