package app

import "testing"

func TestValidateTopicSelection(t *testing.T) {
	tests := []struct {
		name    string
		topics  []string
		wantErr bool
	}{
		{"minimum selection", []string{"Gaming", "Music", "Sports"}, false},
		{"too few", []string{"Gaming", "Music"}, true},
		{"unknown topic", []string{"Gaming", "Music", "Knitting Underwater"}, true},
		{"duplicates", []string{"Gaming", "Music", "Gaming"}, true},
		{"full vocabulary", AvailableTopics, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTopicSelection(tt.topics)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTopicSelection(%v) error = %v, wantErr %v", tt.topics, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCommunityTags(t *testing.T) {
	tests := []struct {
		name    string
		tags    []string
		wantErr bool
	}{
		{"single tag", []string{"Gaming"}, false},
		{"five tags", []string{"Gaming", "Music", "Sports", "Travel", "History"}, false},
		{"empty", nil, true},
		{"six tags", []string{"Gaming", "Music", "Sports", "Travel", "History", "Comedy"}, true},
		{"unknown tag", []string{"Gaming", "Underwater Basket Weaving"}, true},
		{"duplicate tags", []string{"Gaming", "Gaming"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCommunityTags(tt.tags)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCommunityTags(%v) error = %v, wantErr %v", tt.tags, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePostTagName(t *testing.T) {
	if err := ValidatePostTagName("Guides"); err != nil {
		t.Errorf("short name should pass: %v", err)
	}
	if err := ValidatePostTagName(""); err == nil {
		t.Error("empty name should fail")
	}
	long := make([]byte, MaxPostTagNameLen+1)
	for i := range long {
		long[i] = 'a'
	}
	if err := ValidatePostTagName(string(long)); err == nil {
		t.Error("overlong name should fail")
	}
}

func TestVocabularySize(t *testing.T) {
	if len(AvailableTopics) != 50 {
		t.Errorf("vocabulary holds %d topics, want 50", len(AvailableTopics))
	}
	seen := map[string]bool{}
	for _, topic := range AvailableTopics {
		if seen[topic] {
			t.Errorf("duplicate topic in vocabulary: %s", topic)
		}
		seen[topic] = true
	}
}
