package common

import "strings"

func PanicIfErr(err error) {
	if err != nil {
		panic(err)
	}
}

// Contains tells whether arr contains x.
func Contains(arr []string, x string) bool {
	for _, n := range arr {
		if x == n {
			return true
		}
	}
	return false
}

// ContainsFold is like Contains but compares case-insensitively, which is how attribute names are compared.
func ContainsFold(arr []string, x string) bool {
	for _, n := range arr {
		if strings.EqualFold(x, n) {
			return true
		}
	}
	return false
}
