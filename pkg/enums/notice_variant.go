package enums

import "fmt"

// NoticeVariant controls how a client renders an operation notice.
type NoticeVariant string

const (
	NoticeVariantDefault     NoticeVariant = "default"
	NoticeVariantDestructive NoticeVariant = "destructive"
)

var validNoticeVariants = []NoticeVariant{
	NoticeVariantDefault,
	NoticeVariantDestructive,
}

func (n NoticeVariant) String() string {
	return string(n)
}

func (n NoticeVariant) IsValid() bool {
	for _, candidate := range validNoticeVariants {
		if candidate == n {
			return true
		}
	}
	return false
}

func ParseNoticeVariant(value string) (NoticeVariant, error) {
	for _, candidate := range validNoticeVariants {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notice variant %q", value)
}
