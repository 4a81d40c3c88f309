package conversation

import "strings"

// FindChannelByName resolves a partial channel name to a channel identity.
//
// Matching cascades, case-insensitive, first hit wins: exact display name,
// then display-name prefix, then display-name contains, and finally a
// contains match on the raw channel identifier (which covers synthetic IDs
// like "link:agentA:agentB"). No hit is a valid not-found outcome.
func (s *Store) FindChannelByName(name string) (string, bool, error) {
	channels, err := s.ListChannels()
	if err != nil {
		return "", false, err
	}
	needle := strings.ToLower(name)

	for _, c := range channels {
		if c.ChannelName != "" && strings.ToLower(c.ChannelName) == needle {
			return c.ChannelID, true, nil
		}
	}
	for _, c := range channels {
		if c.ChannelName != "" && strings.HasPrefix(strings.ToLower(c.ChannelName), needle) {
			return c.ChannelID, true, nil
		}
	}
	for _, c := range channels {
		if c.ChannelName != "" && strings.Contains(strings.ToLower(c.ChannelName), needle) {
			return c.ChannelID, true, nil
		}
	}
	for _, c := range channels {
		if strings.Contains(strings.ToLower(c.ChannelID), needle) {
			return c.ChannelID, true, nil
		}
	}
	return "", false, nil
}
