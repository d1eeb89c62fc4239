// Package argcrypt packs an ordered set of string name/value pairs into a
// password-encrypted token small enough to pass as a URL query parameter,
// and unpacks it again on the receiving side.
//
// Producer:
//
//	enc, err := argcrypt.New("Password123")
//	enc.Add("Name", "Bob Smith")
//	enc.Add("Phone", "555-0000")
//	token, err := enc.Encrypt(true)
//	link := "https://example.com/profile?d=" + token
//
// Consumer:
//
//	dec, err := argcrypt.NewFromToken("Password123", r.URL.Query().Get("d"), false)
//	name, _ := dec.Get("Name")
//
// Note the consumer passes urlEncoded=false because net/http already
// percent-decoded the query. When the token is handled as raw text the
// flag given to Encrypt and Decrypt must match.
//
// Tokens are base64 text wrapping the layout described in package seal; the
// decrypted payload uses the layout described in package pairwire. A fresh
// random salt is used for every Encrypt call, so encrypting the same pairs
// twice gives two different tokens.
//
// An Encryptor is not safe for concurrent use.
package argcrypt
