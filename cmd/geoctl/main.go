// Command geoctl is a small command-line front end to the geohash codec and
// distance calculator.
//
//	geoctl encode --lat 44.2312 --lng=-76.4860 -p 9
//	geoctl decode drcees097
//	geoctl neighbors drcees097
//	geoctl distance --from 44.2312,-76.4860 --to 44.2280,-76.4951
//	geoctl info --lat 44.2312 --lng=-76.4860
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
