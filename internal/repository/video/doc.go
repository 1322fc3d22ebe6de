// Package video implements persistence for education videos.
package video
