/*
 * @Author:    thepoy
 * @File Name: json.go
 */

package store

import jsoniter "github.com/json-iterator/go"

var json = jsoniter.ConfigCompatibleWithStandardLibrary
