package validators

import "go.mongodb.org/mongo-driver/bson"

var WaitlistValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"restaurant_id",
			"requested_date",
			"requested_time",
			"party_size",
			"customer_name",
			"customer_phone",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"restaurant_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"requested_date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"requested_time": bson.M{
				"bsonType": "string",
				"pattern":  `^([01]\d|2[0-3]):[0-5]\d$`,
			},

			"party_size": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  50,
			},

			"customer_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"customer_phone": bson.M{
				"bsonType": "string",
				"pattern":  `^\+[1-9]\d{7,14}$`,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"WAITING",
					"NOTIFIED",
					"CONVERTED",
					"EXPIRED",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
