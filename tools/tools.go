/*
 * @Author: thepoy
 * @Email: email@example.com
 * @File Name: tools.go
 * @Created: 2021-07-23 14:55:04
 * @Modified: 2021-07-27 13:52:45
 */

package tools

import (
	"math/rand"
	"strings"
	"time"
)

// Shuffle returns pool in a random order, used to pick proxies with
// uniform probability from the proxy pool.
func Shuffle(pool []string) []string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	ret := make([]string, len(pool))
	perm := r.Perm(len(pool))
	for i, randIndex := range perm {
		ret[i] = pool[randIndex]
	}
	return ret
}

// Strip trims leading and trailing whitespace, the same behavior html
// parsing code expects from text nodes.
func Strip(s string) string {
	return strings.TrimSpace(s)
}
