package cache

import (
	"strconv"
	"strings"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = ":"

// defaultKeySerializer produces keys of the form "[namespace:]kind:id".
type defaultKeySerializer struct {
	namespace string
}

// NewDefaultKeySerializer creates a serializer without namespace, yielding
// keys such as "favor_count:42".
func NewDefaultKeySerializer() KeySerializer {
	return &defaultKeySerializer{}
}

// NewNamespacedKeySerializer prefixes every key with namespace, which lets
// several deployments share one Redis database.
func NewNamespacedKeySerializer(namespace string) KeySerializer {
	return &defaultKeySerializer{namespace: strings.Trim(namespace, KeySeparator)}
}

// SerializeKey builds the key holding the count of kind for subject id.
func (s *defaultKeySerializer) SerializeKey(kind string, id int64) string {
	return s.KindPrefix(kind) + strconv.FormatInt(id, 10)
}

// KindPrefix returns the prefix shared by every key of kind, separator included,
// so that "spot_count:" never matches "spot_count_v2:1".
func (s *defaultKeySerializer) KindPrefix(kind string) string {
	var b strings.Builder
	if s.namespace != "" {
		b.WriteString(s.namespace)
		b.WriteString(KeySeparator)
	}
	b.WriteString(NormalizeKind(kind))
	b.WriteString(KeySeparator)
	return b.String()
}
