// Command server runs the storefront. The first argument picks the
// command (serve by default); see `server help`.
package main

import "github.com/nomfood/storefront/internal/storefront"

func main() {
	storefront.New().Run()
}
