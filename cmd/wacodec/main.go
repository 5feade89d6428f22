// Command wacodec decodes or encodes WeakAuras share strings from the
// command line.
//
// Example usage:
//
//	$ wacodec -decode < share-string.txt
//	$ echo '{"a":1}' | wacodec -encode -version 2 > share-string.txt
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/weakauras/wacodec"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("wacodec: ")

	decodeMode := flag.Bool("decode", false, "decode a share string read from stdin into JSON")
	encodeMode := flag.Bool("encode", false, "encode a JSON value read from stdin into a share string")
	maxSize := flag.Int64("max-size", wacodec.DefaultMaxSize, "decompressed size ceiling in bytes (negative disables it)")
	version := flag.Int("version", int(wacodec.VersionBinarySerialization), "string_version for -encode: 1=Deflate, 2=BinarySerialization")
	flag.Parse()

	if *decodeMode == *encodeMode {
		log.Fatal("exactly one of -decode or -encode is required")
	}

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatalf("reading stdin: %v", err)
	}

	if *decodeMode {
		limit := int(*maxSize)
		if limit < 0 {
			limit = wacodec.NoLimit
		}
		if err := runDecode(input, limit); err != nil {
			log.Fatal(err)
		}
		return
	}
	if err := runEncode(input, wacodec.StringVersion(*version)); err != nil {
		log.Fatal(err)
	}
}

func runDecode(input []byte, maxSize int) error {
	v, err := wacodec.Decode(input, maxSize)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	out, err := v.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))
	return nil
}

func runEncode(input []byte, sv wacodec.StringVersion) error {
	var v wacodec.Value
	if err := v.UnmarshalJSON(input); err != nil {
		return fmt.Errorf("parsing JSON input: %w", err)
	}
	out, err := wacodec.Encode(v, sv)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	fmt.Println(out)
	return nil
}
