// Package people is the sample input of the generation tests.
package people
