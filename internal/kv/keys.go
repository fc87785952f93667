package kv

import (
	"fmt"
	"strings"
)

// channelSuffix names the pub/sub channel that carries change notifications.
const channelSuffix = "changes"

// NamespacedKey returns the stored key for a short key name.
func NamespacedKey(namespace, key string) string {
	return namespace + ":" + key
}

// ChangesChannel returns the notification channel of a namespace.
func ChangesChannel(namespace string) string {
	return NamespacedKey(namespace, channelSuffix)
}

// ExtractKey strips the namespace prefix from a stored key.
func ExtractKey(namespace, stored string) (string, error) {
	prefix := namespace + ":"
	if len(stored) <= len(prefix) || !strings.HasPrefix(stored, prefix) {
		return "", fmt.Errorf("invalid key %q for namespace %q", stored, namespace)
	}
	return stored[len(prefix):], nil
}
