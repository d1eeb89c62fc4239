package argcrypt_test

import (
	"fmt"

	"github.com/argseal/argseal/pkg/argcrypt"
)

func Example() {
	enc, err := argcrypt.New("Password123")
	if err != nil {
		panic(err)
	}
	enc.Add("Name", "Bob Smith")
	enc.Add("Phone", "555-0000")

	token, err := enc.Encrypt(true)
	if err != nil {
		panic(err)
	}

	dec, err := argcrypt.NewFromToken("Password123", token, true)
	if err != nil {
		panic(err)
	}
	for _, p := range dec.Pairs() {
		fmt.Printf("%s: %s\n", p.Key, p.Value)
	}

	wrong, _ := argcrypt.New("WrongPass")
	fmt.Println(wrong.TryDecrypt(token, true))
	// Output:
	// Name: Bob Smith
	// Phone: 555-0000
	// false
}
