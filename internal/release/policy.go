package release

import (
	"encoding/json"
	"fmt"
)

type policyDocument struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

type policyStatement struct {
	Effect    string                       `json:"Effect"`
	Principal map[string]string            `json:"Principal"`
	Action    string                       `json:"Action"`
	Resource  string                       `json:"Resource"`
	Condition map[string]map[string]string `json:"Condition"`
}

// BucketPolicy renders the policy document granting the Serverless
// Application Repository read access to all objects under the bucket,
// scoped to requests originating from the publishing account.
func BucketPolicy(bucket, accountID string) ([]byte, error) {
	doc := policyDocument{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Effect:    "Allow",
			Principal: map[string]string{"Service": "serverlessrepo.amazonaws.com"},
			Action:    "s3:GetObject",
			Resource:  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			Condition: map[string]map[string]string{
				"StringEquals": {"aws:SourceAccount": accountID},
			},
		}},
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling bucket policy: %w", err)
	}
	return raw, nil
}
